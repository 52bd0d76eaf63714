package meshio

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	getter "github.com/hashicorp/go-getter"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chazu/platecheck/pkg/kernel"
)

// Fetch downloads a single model file from src into dstDir and returns the
// local path. src may be anything go-getter understands (http, s3, git,
// file, ...); relative sources resolve against pwd.
func Fetch(ctx context.Context, src, pwd, dstDir string) (string, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", errors.Wrap(err, "create model cache")
	}
	dst := filepath.Join(dstDir, fetchName(src))
	client := &getter.Client{
		Ctx:  ctx,
		Src:  src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return "", errors.Wrapf(err, "fetch %s", src)
	}
	return dst, nil
}

// fetchName keeps the source's file extension so gltf.Open can tell GLB
// from JSON glTF.
func fetchName(src string) string {
	s := src
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimPrefix(path.Clean(s), "/")
	base := path.Base(s)
	if base == "." || base == "" {
		base = "model.glb"
	}
	return base
}

// Loader resolves model references from a layout to meshes. Local files
// are opened in place; anything else is fetched into CacheDir first.
// Meshes are memoized per source, so a model placed several times is read
// once.
type Loader struct {
	BaseDir  string
	CacheDir string
	Logger   *zap.Logger

	mu     sync.Mutex
	meshes map[string]*kernel.Mesh
}

// NewLoader returns a loader resolving relative paths against baseDir.
func NewLoader(baseDir string, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{BaseDir: baseDir, Logger: log}
}

// Load returns the mesh for src. Callers must not modify the returned mesh.
func (l *Loader) Load(ctx context.Context, src string) (*kernel.Mesh, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if m, ok := l.meshes[src]; ok {
		return m, nil
	}

	local, err := l.resolve(ctx, src)
	if err != nil {
		return nil, err
	}
	m, err := Open(local)
	if err != nil {
		return nil, err
	}
	m.PartName = src

	if l.meshes == nil {
		l.meshes = make(map[string]*kernel.Mesh)
	}
	l.meshes[src] = m
	l.logger().Debug("model loaded",
		zap.String("src", src),
		zap.String("path", local),
		zap.Int("triangles", m.TriangleCount()),
	)
	return m, nil
}

func (l *Loader) resolve(ctx context.Context, src string) (string, error) {
	p := src
	if !filepath.IsAbs(p) {
		p = filepath.Join(l.BaseDir, p)
	}
	if isFile(p) {
		return p, nil
	}

	dir := l.CacheDir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "platecheck-models-")
		if err != nil {
			return "", errors.Wrap(err, "create model cache")
		}
		l.CacheDir = tmp
		dir = tmp
	}
	dir = filepath.Join(dir, cacheKey(src))
	if p := filepath.Join(dir, fetchName(src)); isFile(p) {
		l.logger().Debug("model cache hit", zap.String("src", src), zap.String("path", p))
		return p, nil
	}
	l.logger().Info("fetching model", zap.String("src", src), zap.String("cache", dir))
	return Fetch(ctx, src, l.BaseDir, dir)
}

// cacheKey names the cache directory for src. Equal sources share a
// directory across runs and equal base names from different sources never
// clash.
func cacheKey(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:6])
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && !fi.IsDir()
}

func (l *Loader) logger() *zap.Logger {
	if l.Logger == nil {
		return zap.NewNop()
	}
	return l.Logger
}
