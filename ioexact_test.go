package raster

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// TestReadExactEOFReportsShortCount exercises the orderly-EOF branch: a
// pipe writer closes after fewer bytes than requested, and readExact must
// return the short count with a nil error, leaving the caller to decide
// whether that is acceptable.
func TestReadExactEOFReportsShortCount(t *testing.T) {
	r, w, err := pipeFDs()
	require.NoError(t, err)
	defer unix.Close(r)

	payload := []byte("abc")
	n, err := unix.Write(w, payload)
	require.NoError(t, err)
	require.Equal(t, len(payload), n)
	require.NoError(t, unix.Close(w))

	buf := make([]byte, 8)
	got, err := readExact(r, buf)
	require.NoError(t, err)
	require.Equal(t, len(payload), got)
	require.Equal(t, payload, buf[:got])
}

// TestReadExactLoopsAcrossShortReads verifies readExact keeps accumulating
// across multiple underlying reads rather than returning after the first.
func TestReadExactLoopsAcrossShortReads(t *testing.T) {
	r, w, err := pipeFDs()
	require.NoError(t, err)
	defer unix.Close(r)

	want := []byte("hello, raster")
	done := make(chan error, 1)
	go func() {
		for i := 0; i < len(want); i++ {
			if _, err := unix.Write(w, want[i:i+1]); err != nil {
				done <- err
				return
			}
		}
		done <- unix.Close(w)
	}()

	buf := make([]byte, len(want))
	n, err := readExact(r, buf)
	require.NoError(t, err)
	require.Equal(t, len(want), n)
	require.Equal(t, want, buf)
	require.NoError(t, <-done)
}

// TestWriteExactDeliversFullBuffer checks the write side round-trips
// through a pipe without loss.
func TestWriteExactDeliversFullBuffer(t *testing.T) {
	r, w, err := pipeFDs()
	require.NoError(t, err)
	defer unix.Close(r)

	want := make([]byte, 70000) // larger than a single pipe buffer
	for i := range want {
		want[i] = byte(i)
	}

	done := make(chan error, 1)
	go func() {
		_, err := writeExact(w, want)
		unix.Close(w)
		done <- err
	}()

	got := make([]byte, len(want))
	n, err := readExact(r, got)
	require.NoError(t, err)
	require.Equal(t, len(want), n)
	require.Equal(t, want, got)
	require.NoError(t, <-done)
}

// pipeFDs creates an os-level pipe and returns its two raw descriptors.
func pipeFDs() (r, w int, err error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return 0, 0, err
	}
	return fds[0], fds[1], nil
}
