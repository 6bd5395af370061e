package styles

// Column markers and card glyphs.
var (
	IconDot         = "●"
	IconPlaceholder = "┄┄ drop here ┄┄"
	IconGrab        = "✥"
	IconAssignee    = "@"

	IconNotifyInfo    = "ℹ"
	IconNotifyWarning = "⚠"
	IconNotifyError   = "✗"
)
