// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Services receive their dependencies through constructor injection and
// depend only on domain entities and store interfaces, never on concrete
// infrastructure. Time-windowed logic (the recommendation view, the
// sweeper) takes a clock function so tests can pin "now".
package service
