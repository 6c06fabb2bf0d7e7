// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters): ingestion, the vector index,
// the translation cache and the answer orchestrator.
//
// Services are pure Go with no CGO.
package services
