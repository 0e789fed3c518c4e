// Package catalog provides a resource catalog service: named file uploads
// tagged with academic metadata (level, department, category, file type),
// backed by a pluggable record repository and a pluggable blob store.
//
// The Service owns the mapping between a catalog record and its externally
// stored payload. Create, replace, and delete coordinate both sides so the
// record and the blob do not diverge; listings are filtered, paginated, and
// sorted newest first.
//
// Basic usage:
//
//	svc, err := catalog.New(
//	    catalog.WithRepository(memory.New()),
//	    catalog.WithBlobStore(memorystorage.New()),
//	)
//
// Known gaps (deliberate, mirroring the service this replaces): record and
// blob writes are not atomic, so a crash or a failed upload mid-replace can
// orphan a blob or leave a record pointing at a deleted one. Blob delete
// failures during update/delete are logged and otherwise ignored.
package catalog
