// Package md2hatena publishes Markdown notes to a Hatena Blog over AtomPub.
//
// # Quick Start
//
//	pub, err := md2hatena.New(
//	    md2hatena.WithCredentials(rootEndpoint, apiKey),
//	    md2hatena.WithTheme("nord"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	post, err := pub.Prepare("notes/hello.md", md2hatena.Overrides{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := pub.Publish(ctx, post)
//
// # Publishing Pipeline
//
// Publish runs these stages in order:
//
//  1. Frontmatter split (title, categories, draft, member URI)
//  2. Image embeds (![[file.png]]) uploaded to the photo service
//  3. Markdown normalization (%%comments%%, [[wiki links]])
//  4. Markdown to HTML via goldmark, raw HTML re-parsed into the tree
//  5. Code blocks highlighted with chroma
//  6. Top-level style and script elements stripped
//  7. Atom entry posted (new) or put (member URI known)
//  8. Frontmatter rewritten with the returned locations
//
// A failure in the last stage returns the Result together with an error
// matching ErrMetadataUpdate, so callers can tell partial from total
// failure.
//
// # Theme Assets
//
// Post bodies never carry styles or scripts. The CSS and JS a theme needs
// are exported once and pasted into the blog design settings:
//
//	css, _ := pub.ExportStyles("")
//	js, _ := pub.ExportScripts("")
package md2hatena
