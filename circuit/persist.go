package circuit

import (
	"encoding/json"
	"io"

	"schemroute/core"
	"schemroute/pathfinding"
	"schemroute/rerrors"
)

// FormatVersion is written into every saved document.
const FormatVersion = 1

// Document is the saved form of a board. Only the active polyline and
// routing algorithm of each wire are kept; comparison data is dropped.
type Document struct {
	Version    int         `json:"version"`
	Components []Component `json:"components"`
	Wires      []SavedWire `json:"wires"`
}

// SavedWire is the persisted form of a wire.
type SavedWire struct {
	ID        core.WireID      `json:"id"`
	From      core.TerminalRef `json:"from"`
	To        core.TerminalRef `json:"to"`
	Algorithm string           `json:"algorithm"`
	Waypoints []core.Point     `json:"waypoints"`
}

// Document builds the saved form of the board.
func (b *Board) Document() Document {
	doc := Document{
		Version:    FormatVersion,
		Components: b.Components(),
		Wires:      make([]SavedWire, 0, len(b.wireOrder)),
	}
	for _, w := range b.Wires() {
		doc.Wires = append(doc.Wires, SavedWire{
			ID:        w.ID,
			From:      w.From,
			To:        w.To,
			Algorithm: w.Algorithm.Key(),
			Waypoints: append([]core.Point(nil), w.Waypoints...),
		})
	}
	return doc
}

// Save writes the board as indented JSON.
func (b *Board) Save(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b.Document())
}

// FromDocument rebuilds a board. Wires keep their stored waypoints; nothing
// is re-routed.
func FromDocument(doc Document) (*Board, error) {
	if doc.Version > FormatVersion {
		return nil, rerrors.New(rerrors.ErrCodeInvalidFormat, "unsupported document version %d", doc.Version)
	}
	b := NewBoard()
	for _, c := range doc.Components {
		if err := b.AddComponent(c); err != nil {
			return nil, rerrors.Wrap(rerrors.ErrCodeInvalidFormat, err, "load component")
		}
	}
	for _, sw := range doc.Wires {
		algo, err := pathfinding.ParseStrategy(sw.Algorithm)
		if err != nil {
			return nil, rerrors.Wrap(rerrors.ErrCodeInvalidFormat, err, "load wire %q", sw.ID)
		}
		w := &Wire{
			ID:        sw.ID,
			From:      sw.From,
			To:        sw.To,
			Algorithm: algo,
			Waypoints: sw.Waypoints,
		}
		if err := b.PutWire(w); err != nil {
			return nil, rerrors.Wrap(rerrors.ErrCodeInvalidFormat, err, "load wire %q", sw.ID)
		}
	}
	return b, nil
}

// Load reads a board saved by Save.
func Load(r io.Reader) (*Board, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, rerrors.Wrap(rerrors.ErrCodeInvalidFormat, err, "decode board")
	}
	return FromDocument(doc)
}
