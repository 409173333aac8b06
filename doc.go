// Package tessera is the metadata-modeling core of a relational-mapping
// framework. It builds and mutates an in-memory conceptual model of entity
// types, properties, navigations, keys, foreign keys and indexes from
// multiple cooperating inputs (explicit configuration, data annotations and
// automated conventions), recording for every piece of metadata which input
// configured it so that lower-precedence inputs never silently overwrite
// higher-precedence ones.
//
// The root package holds the public error taxonomy and the snapshot cache
// interface. The model itself lives in the model package; concrete
// conventions in the convention package; the diagnostics package carries
// change notifications to a structured logger; and the snapshot package
// renders a built model to Go source and computes stable fingerprints.
//
// This package deliberately contains no query translation, change tracking,
// migration or database I/O: it is an in-process library boundary only.
package tessera
