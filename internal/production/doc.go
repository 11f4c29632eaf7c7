// Package production persists the dashboard's production template and the
// per-order stage/supplier overrides on a storage.Storage.
//
// Both stores keep their data as one JSON blob per key:
//
//	template    -> model.TemplateRecord
//	order-data  -> model.OrderRecordTable
//
// Every order-data write rewrites the whole table. The data is small and
// owned by a single process; writers in other processes are not coordinated.
//
// Reads never fail: a missing or unparsable blob yields the default template
// or an empty table. Writes log and return storage failures.
package production
