package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParse_Empty(t *testing.T) {
	result := Parse("")
	assert.Equal(t, "", result.Command)
	assert.Nil(t, result.Args)
}

func TestParse_SingleWord(t *testing.T) {
	result := Parse("info")
	assert.Equal(t, "info", result.Command)
	assert.Nil(t, result.Args)
	assert.Equal(t, "", result.RawArgs)
}

func TestParse_Lowercase(t *testing.T) {
	result := Parse("SPECIES")
	assert.Equal(t, "species", result.Command)
}

func TestParse_WithArgs(t *testing.T) {
	result := Parse("create Mogget felid")
	assert.Equal(t, "create", result.Command)
	assert.Equal(t, []string{"Mogget", "felid"}, result.Args)
	assert.Equal(t, "Mogget felid", result.RawArgs)
}

func TestParse_ArgsPreserveCase(t *testing.T) {
	result := Parse("LOAD Sabriel")
	assert.Equal(t, "load", result.Command)
	assert.Equal(t, []string{"Sabriel"}, result.Args)
}

func TestParse_ExtraWhitespace(t *testing.T) {
	result := Parse("  species   info   deep  elf  ")
	assert.Equal(t, "species", result.Command)
	assert.Equal(t, []string{"info", "deep", "elf"}, result.Args)
	assert.Equal(t, "info   deep  elf", result.RawArgs)
}

func TestParse_Alias(t *testing.T) {
	result := Parse("sp")
	assert.Equal(t, "sp", result.Command)
}

func TestPropertyParseAlwaysLowercasesCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[A-Za-z]{1,20}`).Draw(t, "word")
		result := Parse(word)
		for _, c := range result.Command {
			if c >= 'A' && c <= 'Z' {
				t.Fatalf("command %q contains uppercase char in Parse result %q", word, result.Command)
			}
		}
	})
}

func TestPropertyParseNonEmptyInputHasCommand(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		word := rapid.StringMatching(`[a-z]{1,10}`).Draw(t, "word")
		result := Parse(word)
		if result.Command == "" {
			t.Fatalf("non-empty input %q produced empty command", word)
		}
	})
}
