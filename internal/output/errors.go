package output

import "fmt"

// MissingDateError means a stash filename could not be built because the first
// boxscore has no usable matchup date.
type MissingDateError struct {
	Filename string
	Message  string
}

func (e *MissingDateError) Error() string {
	return fmt.Sprintf("cannot stash %s: %s", e.Filename, e.Message)
}

// CollisionError means the stash already holds the target name and the collision
// policy is "fail".
type CollisionError struct {
	Name string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("stash already contains %s", e.Name)
}
