package md2hatena

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/alnah/go-md2hatena/internal/atom"
	"github.com/alnah/go-md2hatena/internal/fileutil"
	"github.com/alnah/go-md2hatena/internal/logger"
)

// embedPattern matches ![[target]] image embeds. A "|size" suffix on the
// target is ignored.
var embedPattern = regexp.MustCompile(`!\[\[([^\]]+)\]\]`)

// uploadImages uploads every embedded image of post and returns the body
// with successful embeds replaced by the service's [id] notation. Failures
// are recorded and logged; the embed is left in place.
func (p *Publisher) uploadImages(ctx context.Context, post *Post) (string, []ImageUpload) {
	body := post.Body
	var uploads []ImageUpload
	seen := make(map[string]bool)

	for _, m := range embedPattern.FindAllStringSubmatch(post.Body, -1) {
		embed, target := m[0], embedTarget(m[1])
		if seen[embed] || fileutil.IsURL(target) {
			continue
		}
		seen[embed] = true
		if ctx.Err() != nil {
			break
		}

		up := p.uploadImage(ctx, post.Path, embed, target)
		uploads = append(uploads, up)
		if up.Err != nil {
			p.logger.Warn("image upload skipped",
				logger.String("file", post.Path),
				logger.String("image", target),
				logger.Error(up.Err))
			continue
		}

		p.logger.Info("image uploaded", logger.String("image", filepath.Base(up.Path)))
		body = strings.ReplaceAll(body, embed, "["+up.ID+"]")
	}
	return body, uploads
}

func (p *Publisher) uploadImage(ctx context.Context, docPath, embed, target string) ImageUpload {
	up := ImageUpload{Embed: embed}

	path, ok := p.resolveImage(docPath, target)
	if !ok {
		up.Err = fmt.Errorf("%w: %s", ErrImageNotFound, target)
		return up
	}
	up.Path = path

	data, err := os.ReadFile(path)
	if err != nil {
		up.Err = fmt.Errorf("reading %s: %w", path, err)
		return up
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		up.Err = fmt.Errorf("%w: %s is %s", ErrNotImage, target, mtype.String())
		return up
	}

	id, err := p.client.UploadImage(ctx, atom.Image{
		Filename: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		MIMEType: mtype.String(),
		Data:     data,
	})
	if err != nil {
		up.Err = err
		return up
	}
	up.ID = id
	return up
}

// resolveImage looks for target next to the document, then under the
// configured image root.
func (p *Publisher) resolveImage(docPath, target string) (string, bool) {
	candidates := []string{filepath.Join(filepath.Dir(docPath), target)}
	if p.cfg.imageRoot != "" {
		candidates = append(candidates, filepath.Join(p.cfg.imageRoot, target))
	}
	for _, c := range candidates {
		if fileutil.FileExists(c) {
			return c, true
		}
	}
	return "", false
}

func embedTarget(raw string) string {
	if i := strings.IndexByte(raw, '|'); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}
