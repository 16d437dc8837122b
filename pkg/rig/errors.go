package rig

import "errors"

// Armature construction errors. All of them abort the conversion of the
// current asset; no partial armature is ever returned.
var (
	ErrDuplicateBoneName   = errors.New("duplicate bone name in hierarchy")
	ErrIncompleteHierarchy = errors.New("bone name count does not match joint count")
	ErrBuilderSealed       = errors.New("builder already finalized")
	ErrVertexOutOfRange    = errors.New("vertex index out of range")
	ErrNegativeVertexCount = errors.New("negative vertex count")
	ErrInvalidJointIndex   = errors.New("negative joint index")
)
