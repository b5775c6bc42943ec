package mutation_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oubliette-games/oubliette/internal/game/mutation"
)

func claws() *mutation.Def {
	return &mutation.Def{
		ID: mutation.IDClaws, Name: "claws", MaxLevel: 3,
		GainMessages: []string{
			"Your fingernails lengthen.",
			"Your fingernails sharpen.",
			"Your hands twist into claws.",
		},
	}
}

func nightstalker() *mutation.Def {
	return &mutation.Def{ID: "nightstalker", Name: "nightstalker", MaxLevel: 3, Demonic: true}
}

func TestDef_Validate(t *testing.T) {
	require.NoError(t, claws().Validate())

	d := claws()
	d.ID = ""
	assert.Error(t, d.Validate())

	d = claws()
	d.MaxLevel = 0
	assert.Error(t, d.Validate())
}

func TestDef_GainMessage(t *testing.T) {
	d := claws()
	assert.Equal(t, "Your fingernails lengthen.", d.GainMessage(1))
	assert.Equal(t, "Your hands twist into claws.", d.GainMessage(3))
	// Past the end, the last message repeats.
	assert.Equal(t, "Your hands twist into claws.", d.GainMessage(5))
	assert.Equal(t, "Your fingernails lengthen.", d.GainMessage(0))

	assert.Equal(t, "", nightstalker().GainMessage(1))
}

func TestRegistry_Demonic(t *testing.T) {
	reg := mutation.NewRegistry()
	reg.Register(claws())
	reg.Register(nightstalker())
	reg.Register(&mutation.Def{ID: "demonic_guardian", Name: "demonic guardian", MaxLevel: 3, Demonic: true})

	demonic := reg.Demonic()
	require.Len(t, demonic, 2)
	assert.Equal(t, "demonic_guardian", demonic[0].ID)
	assert.Equal(t, "nightstalker", demonic[1].ID)
}

func TestLoadDirectory_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	doc := `
id: fangs
name: fangs
max_level: 3
gain_messages:
  - "Your teeth lengthen and sharpen."
  - "Your teeth lengthen into huge fangs."
  - "Your mouth bristles with fangs."
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fangs.yaml"), []byte(doc), 0644))

	reg, err := mutation.LoadDirectory(dir)
	require.NoError(t, err)
	got, ok := reg.Get("fangs")
	require.True(t, ok)
	assert.Equal(t, 3, got.MaxLevel)
	assert.False(t, got.Demonic)
}

func TestLoadDirectory_InvalidDef_ReturnsError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("id: bad\nname: bad\nmax_level: 0\n"), 0644))
	_, err := mutation.LoadDirectory(dir)
	assert.Error(t, err)
}

func TestLoadDirectory_NonexistentDir_ReturnsError(t *testing.T) {
	_, err := mutation.LoadDirectory("/nonexistent/path/that/does/not/exist")
	assert.Error(t, err)
}

func TestLoadDirectory_RealContent(t *testing.T) {
	reg, err := mutation.LoadDirectory("../../../content/mutations")
	require.NoError(t, err)
	for _, id := range []string{
		mutation.IDClaws, mutation.IDPaws, mutation.IDTentacleArms,
		mutation.IDUnbreathing, "nightstalker",
	} {
		_, ok := reg.Get(id)
		assert.True(t, ok, "mutation %q must be present", id)
	}
	assert.NotEmpty(t, reg.Demonic())
}
