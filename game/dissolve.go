// File: game/dissolve.go
package game

import "github.com/kamstrup/intmap"

// dissolveSet tracks pieces fading out after an unsupported landing. Pieces
// are keyed by ID with a parallel order slice so the per-tick sweep is
// deterministic.
type dissolveSet struct {
	pieces *intmap.Map[uint64, *Piece]
	order  []uint64
}

func newDissolveSet() *dissolveSet {
	return &dissolveSet{pieces: intmap.New[uint64, *Piece](8)}
}

func (d *dissolveSet) add(p *Piece) {
	if _, exists := d.pieces.Get(p.ID); exists {
		return
	}
	d.pieces.Put(p.ID, p)
	d.order = append(d.order, p.ID)
}

func (d *dissolveSet) len() int {
	return d.pieces.Len()
}

func (d *dissolveSet) contains(id uint64) bool {
	_, ok := d.pieces.Get(id)
	return ok
}

// sweep advances every dissolving piece by one tick and detaches the ones
// that finished fading. Returns the pieces removed this tick.
func (d *dissolveSet) sweep(speed, drift, shrink float64) []*Piece {
	if len(d.order) == 0 {
		return nil
	}

	var removed []*Piece
	remaining := d.order[:0]
	for _, id := range d.order {
		p, ok := d.pieces.Get(id)
		if !ok {
			continue
		}

		p.DissolveProgress += speed
		p.Opacity = 1 - p.DissolveProgress
		if p.Opacity < 0 {
			p.Opacity = 0
		}
		// Cosmetic decay only; the board never sees a dissolving piece.
		p.Pos.Y -= drift
		p.Scale *= shrink

		if p.DissolveProgress >= 1 {
			p.State = StateRemoved
			d.pieces.Del(id)
			removed = append(removed, p)
			continue
		}
		remaining = append(remaining, id)
	}
	d.order = remaining
	return removed
}

// startDissolve flips a piece into the fading state and registers it.
func (d *dissolveSet) startDissolve(p *Piece) {
	p.State = StateDissolving
	p.DissolveProgress = 0
	p.Opacity = 1
	if p.Scale == 0 {
		p.Scale = 1
	}
	d.add(p)
}
