// Package pose decodes LivePose capture documents.
//
// A LivePose document lists, per bone, one or more stacked rigid-transform
// deltas captured in-game. Deltas are offsets to compose onto an existing bone
// transform, never absolute replacements. Rotations are stored X,Y,Z,W in the
// file and converted once, here, to mgl64's W-first quaternion so the rest of
// the module never deals with component ordering.
package pose

import "github.com/go-gl/mathgl/mgl64"

// Rotation is a captured rotation delta
type Rotation struct {
	Quat mgl64.Quat
	// IsIdentity marks the delta as a no-op whatever the numeric payload says.
	IsIdentity bool
}

// Delta is one rigid-transform offset. A nil channel is absent, which is not
// the same as a zero offset.
type Delta struct {
	Position *mgl64.Vec3
	Rotation *Rotation
	Scale    *mgl64.Vec3 // additive, not a ratio
}

// IsEmpty reports whether the delta carries no channel at all
func (d Delta) IsEmpty() bool {
	return d.Position == nil && d.Rotation == nil && d.Scale == nil
}

// Record holds the stacked deltas captured for one bone
type Record struct {
	Bone   string
	Stacks []Delta
}

// Document is a parsed LivePose file
type Document struct {
	Records []Record
	// Malformed counts records dropped while parsing
	Malformed int
}

// BoneDelta pairs a bone with the delta baked into its animation
type BoneDelta struct {
	Bone  string
	Delta Delta
}

// BakeDeltas returns one delta per bone, in document order: the first stack
// carrying any channel wins, later stacks and later records for the same bone
// are ignored.
func (doc *Document) BakeDeltas() []BoneDelta {
	seen := make(map[string]bool, len(doc.Records))
	deltas := make([]BoneDelta, 0, len(doc.Records))

	for _, record := range doc.Records {
		if seen[record.Bone] {
			continue
		}
		for _, stack := range record.Stacks {
			if stack.IsEmpty() {
				continue
			}
			seen[record.Bone] = true
			deltas = append(deltas, BoneDelta{Bone: record.Bone, Delta: stack})
			break
		}
	}

	return deltas
}

// Bones returns the distinct bone names of the document, in order
func (doc *Document) Bones() []string {
	seen := make(map[string]bool, len(doc.Records))
	names := make([]string, 0, len(doc.Records))
	for _, record := range doc.Records {
		if !seen[record.Bone] {
			seen[record.Bone] = true
			names = append(names, record.Bone)
		}
	}
	return names
}

// QuatFromXYZW converts a LivePose X,Y,Z,W quaternion into mgl64's layout.
// This is the only place the capture ordering is known.
func QuatFromXYZW(x, y, z, w float64) mgl64.Quat {
	return mgl64.Quat{W: w, V: mgl64.Vec3{x, y, z}}
}

// XYZW is the inverse of QuatFromXYZW
func XYZW(q mgl64.Quat) (x, y, z, w float64) {
	return q.V.X(), q.V.Y(), q.V.Z(), q.W
}
