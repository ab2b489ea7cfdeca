// Package imagedb provides the DynamoDB access layer for crop image
// label records: filtered listing with cursor pagination, aggregate
// statistics, the farmer directory, and partial record updates.
//
// The table carries two global secondary indexes, one keyed by farmer
// name and one by crop name, each sorted by timestamp. There is no
// composite farmer+crop index; when both filters are selected the
// farmer index is walked page by page and crop equality is applied in
// the application layer until enough matches accumulate.
package imagedb
