// Package marketplace contains the domain model of the marketplace
// synchronization layer: connected seller accounts, the listings that tie
// catalog products to their remote counterparts, the sync adapter port each
// platform implements, and externally sourced customer questions.
//
// The package follows Ports & Adapters: interfaces defined here are
// implemented by the infrastructure layer (GORM repositories, per-platform
// HTTP adapters) and orchestrated by the application services.
package marketplace
