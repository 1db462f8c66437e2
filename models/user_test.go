package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAddSubjectRefIsIdempotent(t *testing.T) {
	u := &User{}
	x := uuid.New()

	assert.True(t, u.AddSubjectRef(x))
	assert.False(t, u.AddSubjectRef(x))
	assert.Len(t, u.SubjectOrder, 1)
	assert.Equal(t, x, u.SubjectOrder[0])
}

func TestSetSubjectOrderReplacesAndDedupes(t *testing.T) {
	u := &User{}
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	u.AddSubjectRef(a)

	u.SetSubjectOrder([]uuid.UUID{c, b, c, a})

	assert.Equal(t, UUIDList{c, b, a}, u.SubjectOrder)
}

func TestPruneSubjectRefs(t *testing.T) {
	u := &User{}
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	u.SetSubjectOrder([]uuid.UUID{a, b, c})

	changed := u.PruneSubjectRefs(map[uuid.UUID]bool{a: true, c: true})
	assert.True(t, changed)
	assert.Equal(t, UUIDList{a, c}, u.SubjectOrder)

	// Nothing dangling: no change reported.
	changed = u.PruneSubjectRefs(map[uuid.UUID]bool{a: true, c: true})
	assert.False(t, changed)
	assert.Equal(t, UUIDList{a, c}, u.SubjectOrder)
}
