// Package pipeline turns Markdown documents into blog-ready HTML.
//
// Stages, in order:
//   - Frontmatter is split off and ignored
//   - The Normalizer strips %%comments%% and flattens [[wiki|links]]
//   - Goldmark renders Markdown to HTML with raw HTML passed through
//   - The HTML is re-parsed into a tree so embedded raw HTML becomes real nodes
//   - A Highlighter replaces every <pre><code> with a themed code frame and
//     inserts the frame's <style> and <script> once, before the first frame
//   - The tree is serialized
//
// Publish mode then drops top-level <style>/<script> elements from the
// serialized string; asset mode keeps them so the AssetExtractor can harvest
// the theme's CSS and JS for pasting into the blog's design settings.
//
// Every stage works on values owned by a single Render call, so a Renderer
// may be shared between goroutines.
package pipeline
