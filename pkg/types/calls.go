package types

// CallKind identifies which static access pattern produced a call record
type CallKind int

const (
	// DirectCall is a \Drupal::service('id') lookup
	DirectCall CallKind = iota
	// ContainerCall is a \Drupal::getContainer()->get('id') lookup
	ContainerCall
	// ShortcutCall is a dedicated accessor such as \Drupal::entityTypeManager()
	ShortcutCall
)

// String returns the string representation of CallKind
func (k CallKind) String() string {
	switch k {
	case DirectCall:
		return "service"
	case ContainerCall:
		return "container"
	case ShortcutCall:
		return "shortcut"
	default:
		return "unknown"
	}
}

// StaticServiceCall represents a single static service lookup found in source text.
// Positions are 0-indexed and refer to the text the detector scanned.
type StaticServiceCall struct {
	ServiceID   string
	Line        int
	StartColumn int
	EndColumn   int
	MatchedText string
	Kind        CallKind
}
