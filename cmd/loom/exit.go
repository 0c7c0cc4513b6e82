package main

// Distinguished exit statuses, stable so scripts can branch on them.
const (
	// ExitGenericFailure is any failure without a more specific status.
	ExitGenericFailure = 1
	// ExitModuleExists: `new` collided with a declared module name.
	ExitModuleExists = 10
	// ExitModelsDirMissing: the project has no models directory.
	ExitModelsDirMissing = 11
	// ExitNothingToDo: `gen` with no module list and an empty declared
	// configuration.
	ExitNothingToDo = 12
)
