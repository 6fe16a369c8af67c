package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/skylandly/internal/model"
)

type CatalogSuite struct {
	suite.Suite
	catalog *Catalog
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) SetupTest() {
	c, err := New([]model.Skylander{
		{Name: "Spyro", Element: "Magic", Gender: "Male", Game: "Spyro's Adventure", Species: "Dragon"},
		{Name: "Gill Grunt", Element: "Water", Gender: "Male", Game: "Spyro's Adventure", Species: "Gillman"},
		{Name: "Stealth Elf", Element: "Life", Gender: "Female", Game: "Spyro's Adventure", Species: "Elf"},
	})
	s.Require().NoError(err)
	s.catalog = c
}

func (s *CatalogSuite) TestNamesAreFoldedInLoadOrder() {
	s.Equal([]string{"spyro", "gill grunt", "stealth elf"}, s.catalog.Names())
	s.Equal(3, s.catalog.Len())
}

func (s *CatalogSuite) TestNamesReturnsCopy() {
	names := s.catalog.Names()
	names[0] = "changed"
	s.Equal("spyro", s.catalog.Names()[0])
}

func (s *CatalogSuite) TestGetIsCaseInsensitive() {
	for _, name := range []string{"Gill Grunt", "gill grunt", "GILL GRUNT", "gIlL gRuNt"} {
		e, err := s.catalog.Get(name)
		s.Require().NoError(err, name)
		s.Equal("Gill Grunt", e.Name)
	}
}

func (s *CatalogSuite) TestGetUnknown() {
	_, err := s.catalog.Get("Kaos")
	s.ErrorIs(err, model.ErrUnknownEntity)
}

func (s *CatalogSuite) TestExists() {
	s.True(s.catalog.Exists("SPYRO"))
	s.False(s.catalog.Exists("Kaos"))
	s.False(s.catalog.Exists(""))
}

func (s *CatalogSuite) TestAll() {
	all := s.catalog.All()
	s.Require().Len(all, 3)
	s.Equal("Spyro", all[0].Name)
	s.Equal("Stealth Elf", all[2].Name)
}

func (s *CatalogSuite) TestByElement() {
	water := s.catalog.ByElement("water")
	s.Require().Len(water, 1)
	s.Equal("Gill Grunt", water[0].Name)

	s.Empty(s.catalog.ByElement("Fire"))
}

func (s *CatalogSuite) TestByGender() {
	male := s.catalog.ByGender("MALE")
	s.Len(male, 2)
	s.Len(s.catalog.ByGender("female"), 1)
}

func TestNew_Empty(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, model.ErrEmptyCatalog)
}

func TestNew_DuplicateNamesIgnoreCase(t *testing.T) {
	_, err := New([]model.Skylander{{Name: "Spyro"}, {Name: "SPYRO"}})
	assert.ErrorIs(t, err, model.ErrDuplicateEntity)
}

func TestParse_PreservesFileOrder(t *testing.T) {
	data := []byte(`{
	"Zap": {"element": "Water", "gender": "Male", "game": "Spyro's Adventure", "species": "Dragon"},
	"Bash": {"element": "Earth", "gender": "Male", "game": "Spyro's Adventure", "species": "Dragon"},
	"Hex": {"element": "Undead", "gender": "Female", "game": "Spyro's Adventure", "species": "Elf"}
}`)
	c, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"zap", "bash", "hex"}, c.Names())

	hex, err := c.Get("hex")
	require.NoError(t, err)
	assert.Equal(t, model.Skylander{Name: "Hex", Element: "Undead", Gender: "Female", Game: "Spyro's Adventure", Species: "Elf"}, hex)
}

func TestParse_MissingAttributesBecomeEmpty(t *testing.T) {
	c, err := Parse([]byte(`{"Kaos": {"element": "Magic", "species": null}}`))
	require.NoError(t, err)

	kaos, err := c.Get("Kaos")
	require.NoError(t, err)
	assert.Equal(t, "Magic", kaos.Element)
	assert.Equal(t, "", kaos.Gender)
	assert.Equal(t, "", kaos.Game)
	assert.Equal(t, "", kaos.Species)
}

func TestParse_YAML(t *testing.T) {
	c, err := Parse([]byte("Spyro:\n  element: Magic\nCynder:\n  element: Undead\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"spyro", "cynder"}, c.Names())
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte(""))
	assert.ErrorIs(t, err, model.ErrEmptyCatalog)

	_, err = Parse([]byte("{}"))
	assert.ErrorIs(t, err, model.ErrEmptyCatalog)
}

func TestParse_NotAMapping(t *testing.T) {
	_, err := Parse([]byte(`["Spyro"]`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skylanders.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Spyro": {"element": "Magic"}, "Gill Grunt": {"element": "Water"}}`), 0o644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadFile_BundledData(t *testing.T) {
	c, err := LoadFile(filepath.Join("..", "..", "..", "data", "skylanders.json"))
	require.NoError(t, err)
	assert.Equal(t, "spyro", c.Names()[0])
	assert.True(t, c.Exists("gill grunt"))
}
