package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagAlias(t *testing.T) {
	t.Run("alias sets the canonical value", func(t *testing.T) {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		var pages int
		fs.IntVar(&pages, "max-pages", 0, "")
		flagAlias(fs, "max-pages", "mp")

		require.NoError(t, fs.Parse([]string{"--mp", "3"}))
		assert.Equal(t, 3, pages)
		assert.True(t, fs.Lookup("max-pages").Changed)
	})

	t.Run("alias is hidden", func(t *testing.T) {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.String("order-by", "", "Sort by date or ranking")
		flagAlias(fs, "order-by", "sort")

		f := fs.Lookup("sort")
		require.NotNil(t, f)
		assert.True(t, f.Hidden)
		assert.Equal(t, []string{"order-by"}, f.Annotations[aliasOfAnnotation])
	})

	t.Run("bool alias needs no value", func(t *testing.T) {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		var all bool
		fs.BoolVar(&all, "all", false, "")
		flagAlias(fs, "all", "every")

		require.NoError(t, fs.Parse([]string{"--every"}))
		assert.True(t, all)
	})

	t.Run("changed through alias", func(t *testing.T) {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().String("order-direction", "", "")
		flagAlias(cmd.Flags(), "order-direction", "dir")

		require.NoError(t, cmd.Flags().Parse([]string{"--dir", "asc"}))
		assert.True(t, flagOrAliasChanged(cmd, "order-direction"))
	})

	t.Run("unchanged", func(t *testing.T) {
		cmd := &cobra.Command{Use: "test"}
		cmd.Flags().String("order-direction", "", "")
		flagAlias(cmd.Flags(), "order-direction", "dir")

		require.NoError(t, cmd.Flags().Parse(nil))
		assert.False(t, flagOrAliasChanged(cmd, "order-direction"))
	})

	t.Run("panics on missing flag", func(t *testing.T) {
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		assert.Panics(t, func() { flagAlias(fs, "nonexistent", "ne") })
	})
}

func TestParseKeyValue(t *testing.T) {
	k, v, err := parseKeyValue("name_part=初心=x")
	require.NoError(t, err)
	assert.Equal(t, "name_part", k)
	assert.Equal(t, "初心=x", v)

	_, _, err = parseKeyValue(" =x")
	assert.ErrorContains(t, err, "must be key=value")
}

func TestScalarValue(t *testing.T) {
	assert.Equal(t, 5, scalarValue("5"))
	assert.Equal(t, true, scalarValue("true"))
	assert.Equal(t, "1.5", scalarValue("1.5"))
	assert.Equal(t, "初心", scalarValue("初心"))
}
