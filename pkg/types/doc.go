// Package types defines the entity capability contracts, identity predicates,
// page requests, configuration and standard errors shared by the crudkit
// mapper, orchestrator and reference stores.
package types
