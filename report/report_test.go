package report_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/eak1mov/go-bintmx/codec"
	"github.com/eak1mov/go-bintmx/report"
	"github.com/eak1mov/go-bintmx/tile"
)

func sampleDiagnostics() *codec.Diagnostics {
	var d codec.Diagnostics
	d.Add(codec.Diagnostic{Layer: "Walls", Cell: tile.Point{X: 1, Y: 2}, Kind: codec.KindUnknownTile, Value: 41})
	d.Add(codec.Diagnostic{Layer: "Walls", Cell: tile.Point{X: 3, Y: 0}, Kind: codec.KindAmbiguous, GID: tile.GID(12).WithFlip(true), Value: 4})
	d.Add(codec.Diagnostic{Layer: "Decor", Cell: tile.Point{X: 0, Y: 0}, Kind: codec.KindUnknownTile, Value: 7})
	return &d
}

func TestWriteRead(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "report.sqlite")
	metadata := map[string]string{"source": "level.bin", "direction": "totmx"}

	w, err := report.NewWriter(filePath, report.WithMetadata(metadata))
	require.NoError(t, err)
	diags := sampleDiagnostics()
	require.NoError(t, w.WriteAll(diags))
	require.NoError(t, w.WriteDiagnostic(codec.Diagnostic{Layer: "Ground", Kind: codec.KindTruncated}))
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Close())

	r, err := report.NewReader(filePath)
	require.NoError(t, err)
	defer r.Close()

	gotMetadata, err := r.ReadMetadata()
	require.NoError(t, err)
	if diff := cmp.Diff(metadata, gotMetadata); diff != "" {
		t.Errorf("ReadMetadata() mismatch (-want+got):\n%s", diff)
	}

	counts, err := r.Counts()
	require.NoError(t, err)
	wantCounts := map[codec.Kind]int{
		codec.KindUnknownTile: 2,
		codec.KindAmbiguous:   1,
		codec.KindTruncated:   1,
	}
	if diff := cmp.Diff(wantCounts, counts); diff != "" {
		t.Errorf("Counts() mismatch (-want+got):\n%s", diff)
	}

	var got []codec.Diagnostic
	err = r.VisitDiagnostics(func(d codec.Diagnostic) error {
		got = append(got, d)
		return nil
	})
	require.NoError(t, err)

	want := append(diags.Layer("Walls"), diags.Layer("Decor")...)
	want = append(want, codec.Diagnostic{Layer: "Ground", Kind: codec.KindTruncated})
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("VisitDiagnostics() mismatch (-want+got):\n%s", diff)
	}
}

func TestVisitStops(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "report.sqlite")
	w, err := report.NewWriter(filePath)
	require.NoError(t, err)
	require.NoError(t, w.WriteAll(sampleDiagnostics()))
	require.NoError(t, w.Close())

	r, err := report.NewReader(filePath)
	require.NoError(t, err)
	defer r.Close()

	stop := errors.New("stop")
	visited := 0
	err = r.VisitDiagnostics(func(codec.Diagnostic) error {
		visited++
		return stop
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 1, visited)
}

func TestNewWriterExisting(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "report.sqlite")
	w, err := report.NewWriter(filePath)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = report.NewWriter(filePath)
	require.Error(t, err)
}

func TestNewReaderMissing(t *testing.T) {
	_, err := report.NewReader(filepath.Join(t.TempDir(), "missing.sqlite"))
	require.Error(t, err)
}
