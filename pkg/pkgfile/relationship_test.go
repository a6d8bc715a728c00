package pkgfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRelationshipFieldSimple(t *testing.T) {
	field := ParseRelationshipField("libc6 (>= 2.36)")
	assert.Len(t, field, 1)
	assert.Len(t, field[0], 1)
	assert.Equal(t, "libc6", field[0][0].Name)
	assert.Equal(t, ">= 2.36", field[0][0].Version)
}

func TestParseRelationshipFieldMultipleClauses(t *testing.T) {
	field := ParseRelationshipField("libc6 (>= 2.36), perl-base")
	assert.Len(t, field, 2)
	assert.Equal(t, "libc6", field[0][0].Name)
	assert.Equal(t, "perl-base", field[1][0].Name)
}

func TestParseRelationshipFieldAlternatives(t *testing.T) {
	field := ParseRelationshipField("perl | perl-base (>= 5.36)")
	assert.Len(t, field, 1)
	assert.Len(t, field[0], 2)
	assert.Equal(t, "perl", field[0][0].Name)
	assert.Equal(t, "perl-base", field[0][1].Name)
	assert.Equal(t, ">= 5.36", field[0][1].Version)
}

func TestParseRelationshipFieldArchitectureQualifier(t *testing.T) {
	field := ParseRelationshipField("libfoo:amd64")
	assert.Equal(t, "libfoo", field[0][0].Name)
	assert.Equal(t, "amd64", field[0][0].Architecture)
}

func TestParseRelationshipFieldEmpty(t *testing.T) {
	assert.Nil(t, ParseRelationshipField(""))
}

func TestRelationshipFieldNames(t *testing.T) {
	field := ParseRelationshipField("perl | perl-base, libc6")
	assert.Equal(t, []string{"perl", "libc6"}, field.Names())
}

func TestRelationshipFieldFlattenNames(t *testing.T) {
	field := ParseRelationshipField("perl | perl-base, libc6")
	assert.Equal(t, []string{"perl", "perl-base", "libc6"}, field.FlattenNames())
}
