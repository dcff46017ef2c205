package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotFound is returned for ids whose index was never handed out.
	ErrEntityNotFound = eris.New("entity does not exist")
	// ErrStaleEntity is returned for ids of despawned entities, including ids
	// whose slot has since been reused.
	ErrStaleEntity = eris.New("entity id refers to a despawned entity")
)
