package census

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadTargets(t *testing.T) {
	csv := `table,URL
S2701,https://api.census.gov/data/2021/acs/acs5/subject?get=group(S2701)&ucgid=0400000US09
B19013H,https://api.census.gov/data/2023/acs/acs5?get=group(B19013H)&ucgid=pseudo(0400000US09$0600000)
broken,https://api.census.gov/data/2023/acs/acs5?for=state:*
blank,
`
	path := filepath.Join(t.TempDir(), "targets.csv")
	err := os.WriteFile(path, []byte(csv), 0o644)
	require.NoError(t, err)

	targets, err := ReadTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 3)

	require.NoError(t, targets[0].Err)
	require.Equal(t, "acs/acs5/subject", targets[0].Endpoint.Dataset)
	require.Equal(t, "S2701", targets[0].Endpoint.Group())

	require.NoError(t, targets[1].Err)
	require.Equal(t, 2023, targets[1].Endpoint.Year)

	require.Error(t, targets[2].Err)
	require.Equal(t, "https://api.census.gov/data/2023/acs/acs5?for=state:*", targets[2].Url)
}

func TestReadTargetsRequiresUrlColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "targets.csv")
	err := os.WriteFile(path, []byte("table,link\nS2701,x\n"), 0o644)
	require.NoError(t, err)

	_, err = ReadTargets(path)
	require.Error(t, err)
}

func TestGroupTableType(t *testing.T) {
	testCases := []struct {
		group    string
		expected TableType
	}{
		{"DP02", TableProfile},
		{"B19013H", TableDetailed},
		{"CP03", TableCollapsed},
		{"C17002", TableCollapsed},
		{"S2701", TableSubject},
		{"P1", TableUnknown},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, GroupTableType(test.group), test.group)
	}
}
