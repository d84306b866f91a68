package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mradosav-amd/cache/examples/telemetry"
	"github.com/mradosav-amd/cache/pkg/codec"
	"github.com/mradosav-amd/cache/pkg/di"
	"github.com/mradosav-amd/cache/pkg/sample"
)

func writeReplayFixture(t *testing.T, path string, samples []telemetry.ProcessSample) {
	t.Helper()
	var data []byte
	for _, s := range samples {
		payload := make([]byte, s.ByteSize())
		require.NoError(t, s.Serialize(codec.NewWriter(payload)))

		header := make([]byte, sample.HeaderSize)
		sample.WriteHeader(codec.NewWriter(header), sample.Header{
			TypeID:      s.TypeID(),
			PayloadSize: uint64(len(payload)),
		})
		data = append(data, header...)
		data = append(data, payload...)
	}
	require.NoError(t, os.WriteFile(path, data, 0600))
}

func TestReplayRangeFiltersByProcessSampleStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.cache")

	writeReplayFixture(t, path, []telemetry.ProcessSample{
		{GUID: "early", ProcessID: 1, Start: 10, End: 20},
		{GUID: "middle", ProcessID: 2, Start: 50, End: 60},
		{GUID: "late", ProcessID: 3, Start: 500, End: 600},
	})

	// metrics.New registers against the default Prometheus registry, so a
	// test binary builds its container only once.
	if container == nil {
		SetContainer(di.NewContainer(nil))
	}
	rootCmd.SetArgs([]string{"replay", path, "--from", "20", "--to", "100"})
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	require.NoError(t, rootCmd.Execute())

	output := out.String()
	assert.Contains(t, output, "1 process sample(s) with start in [20, 100]")
	assert.Contains(t, output, "middle")
	assert.NotContains(t, output, "pid=1 ")
	assert.NotContains(t, output, "pid=3 ")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
