// Package crud orchestrates create, read, update and delete operations over
// a types.Service. A Controller validates input, calls the store, classifies
// the result into an outcome.Outcome and, in DTO mode, projects values
// between the caller-facing shapes and the persisted entity.
//
// Every operation is a self-contained unit of work behind a failure
// boundary: errors and panics never escape a Controller method, they are
// logged and reported as outcomes.
//
// Operations and their results:
//
//	Create    payload          Value | Conflict | Invalid | Failed
//	Get       id               Value | NotFound | Invalid | Failed
//	GetByKey  external key     Value | NotFound | Invalid | Failed
//	List                       Value | Empty | Failed
//	Page      page, limit      Value | Invalid | Failed
//	Update    payload          Empty | NotFound | Invalid | Failed
//	Patch     key, patch       Value | NotFound | Invalid | Failed
//	Delete    external key     Empty | NotFound | Invalid | Failed
//
// Errors caused by context cancellation are reported as Canceled.
package crud
