package rule

// Rule binds a unique name to a pattern and an action. Firing replaces the
// matched term with the action's replacement set and marks the original
// processed.
type Rule struct {
	Name    string
	Pattern Pattern
	Action  Action
}
