// Package assets provides the stylesheet and script that accompany
// highlighted code frames.
//
// Two sources exist: the built-in files compiled into the binary and an
// optional override directory laid out the same way:
//
//	{dir}/
//	├── styles/{name}.css
//	└── scripts/{name}.js
//
// NewResolver stacks the directory over the built-in files so a user can
// replace the frame stylesheet and keep the stock copy script. Reads from
// the directory go through an os.Root, so neither names nor symlinks can
// reach files outside it.
package assets
