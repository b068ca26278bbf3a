// Package aggregates defines the storage error taxonomy and the tagged save
// outcome shared by the group → collection → coin storage services.
//
// Errors carry the entity level and id they are about. A cascading save
// reports child failures as the parent's error; the child error stays
// reachable through errors.As.
package aggregates
