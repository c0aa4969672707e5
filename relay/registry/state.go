package registry

// StateBlob is the opaque application payload exchanged through the relay.
// The relay never interprets its contents beyond the single "state" marker
// key, which is required for a blob to anchor a room.
type StateBlob map[string]any

// Valid reports whether the blob carries the required "state" marker.
// A missing key, a nil value, an empty string, a zero number, or false
// all fail validation, matching how the marker is checked on the client
// side.
func (b StateBlob) Valid() bool {
	switch v := b["state"].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		// JSON numbers decode as float64.
		return v != 0
	default:
		return true
	}
}
