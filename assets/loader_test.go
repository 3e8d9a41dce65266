package assets

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planeview/internal/logging"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func pollAll(t *testing.T, l *Loader, n int) []Result {
	t.Helper()
	var got []Result
	require.Eventually(t, func() bool {
		got = append(got, l.Poll()...)
		return len(got) >= n
	}, 2*time.Second, 5*time.Millisecond)
	return got
}

func TestLoadDecodesInBackground(t *testing.T) {
	l := NewLoader(2, logging.Nop())
	defer l.Shutdown()

	path := writePNG(t, 4, 3)
	tex, err := l.Load(path)
	require.NoError(t, err)
	assert.False(t, tex.Loaded, "texture starts empty")
	assert.Equal(t, path, tex.Path)

	results := pollAll(t, l, 1)
	require.Len(t, results, 1)
	r := results[0]
	require.NoError(t, r.Err)
	assert.Same(t, tex, r.Texture)
	assert.False(t, tex.Loaded, "pixels are applied by the owner")

	require.NoError(t, r.Apply())
	assert.True(t, tex.Loaded)
	assert.Equal(t, 4, tex.Width)
	assert.Equal(t, 3, tex.Height)
	assert.Equal(t, 0, l.Pending())
	assert.Nil(t, l.Poll())
}

func TestLoadDistinctTextures(t *testing.T) {
	l := NewLoader(1, nil)
	defer l.Shutdown()

	path := writePNG(t, 1, 1)
	a, err := l.Load(path)
	require.NoError(t, err)
	b, err := l.Load(path)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	results := pollAll(t, l, 2)
	assert.Len(t, results, 2)
}

func TestLoadMissingFile(t *testing.T) {
	var logs strings.Builder
	l := NewLoader(1, logging.NewLogger("test", false, &logs, &logs))
	defer l.Shutdown()

	tex, err := l.Load(filepath.Join(t.TempDir(), "missing.png"))
	require.NoError(t, err)

	results := pollAll(t, l, 1)
	require.Error(t, results[0].Err)
	assert.Error(t, results[0].Apply())
	assert.False(t, tex.Loaded)
	assert.Empty(t, tex.Pixels)
	assert.Contains(t, logs.String(), "ERROR: texture load failed")
}

func TestLoadEmptyPath(t *testing.T) {
	l := NewLoader(1, nil)
	defer l.Shutdown()

	_, err := l.Load("")
	assert.ErrorIs(t, err, ErrEmptyPath)
	assert.Equal(t, 0, l.Pending())
}

func TestLoadAfterShutdown(t *testing.T) {
	l := NewLoader(2, nil)
	l.Shutdown()

	for i := 0; i < 20; i++ {
		tex, err := l.Load(writePNG(t, 1, 1))
		require.ErrorIs(t, err, ErrLoaderClosed)
		assert.Nil(t, tex)
	}
	assert.Equal(t, 0, l.Pending())
	assert.Nil(t, l.Poll())
}

func TestShutdownFinishesQueuedLoads(t *testing.T) {
	l := NewLoader(1, nil)
	started := make(chan struct{}, 3)
	release := make(chan struct{})
	l.decode = func(path string) (*image.RGBA, error) {
		started <- struct{}{}
		<-release
		return nil, errors.New("stopped")
	}

	for _, name := range []string{"a.png", "b.png", "c.png"} {
		_, err := l.Load(name)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, l.Pending())
	<-started

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(release)
	}()
	l.Shutdown()

	assert.Equal(t, 0, l.Pending())
	results := l.Poll()
	require.Len(t, results, 3)
	canceled := 0
	for _, r := range results {
		require.Error(t, r.Err)
		if errors.Is(r.Err, context.Canceled) {
			canceled++
		}
	}
	assert.Equal(t, 2, canceled, "queued loads are not decoded after shutdown")
}

func TestShaderSource(t *testing.T) {
	src, err := ShaderSource("", PlaneVertexShader)
	require.NoError(t, err)
	assert.Contains(t, src, "gl_Position")
	assert.Contains(t, PlaneFragmentShader, "tOne")
	assert.Contains(t, PlaneFragmentShader, "tSec")

	path := filepath.Join(t.TempDir(), "custom.frag")
	require.NoError(t, os.WriteFile(path, []byte("void main() {}"), 0o644))
	src, err = ShaderSource(path, PlaneFragmentShader)
	require.NoError(t, err)
	assert.Equal(t, "void main() {}", src)

	_, err = ShaderSource(filepath.Join(t.TempDir(), "nope"), "")
	assert.Error(t, err)
}
