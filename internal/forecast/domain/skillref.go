package domain

import "github.com/google/uuid"

// SkillRefKind discriminates the two shapes a stored skill reference takes.
type SkillRefKind int

const (
	// SkillRefName is a display name used directly.
	SkillRefName SkillRefKind = iota
	// SkillRefUUID points at a skill record by id.
	SkillRefUUID
)

// SkillReference is a classified skill reference. Rows in the store mix raw
// UUIDs and display names in the same column; classification happens once at
// the validation boundary instead of being re-sniffed by every consumer.
type SkillReference struct {
	Kind  SkillRefKind
	Value string
}

// ParseSkillReference classifies a raw reference string.
func ParseSkillReference(raw string) SkillReference {
	if IsSkillUUID(raw) {
		return SkillReference{Kind: SkillRefUUID, Value: raw}
	}
	return SkillReference{Kind: SkillRefName, Value: raw}
}

// IsSkillUUID reports whether raw is a canonical RFC 4122 UUID string.
// Only the 36-character hyphenated form counts; uuid.Parse alone also
// accepts braced and urn-prefixed variants that never appear as skill names.
func IsSkillUUID(raw string) bool {
	if len(raw) != 36 {
		return false
	}
	_, err := uuid.Parse(raw)
	return err == nil
}
