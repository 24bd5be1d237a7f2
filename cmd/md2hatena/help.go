package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-md2hatena/internal/pipeline"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2hatena <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  publish      Publish a markdown file to Hatena Blog")
	fmt.Fprintln(w, "  render       Render markdown files to HTML previews")
	fmt.Fprintln(w, "  export-css   Print the CSS a theme needs")
	fmt.Fprintln(w, "  export-js    Print the copy-button script a theme needs")
	fmt.Fprintln(w, "  version      Show version information")
	fmt.Fprintln(w, "  help         Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'md2hatena help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags every command accepts.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintf(w, "      --theme <name>        Theme: %s\n", strings.Join(pipeline.Themes(), ", "))
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

// printPublishUsage prints usage for the publish command.
func printPublishUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2hatena publish <file.md> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Create a new entry, or update the one named by hatena-member-uri in the")
	fmt.Fprintln(w, "frontmatter. Embedded images (![[file.png]]) are uploaded first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Entry:")
	fmt.Fprintln(w, "      --title <s>           Entry title")
	fmt.Fprintln(w, "      --category <s>        Category (repeatable)")
	fmt.Fprintln(w, "      --draft               Always save as a draft")
	fmt.Fprintln(w, "      --publish             Always publish publicly")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Control:")
	fmt.Fprintln(w, "  -y, --yes                 Skip the confirmation prompt")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-request timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: md2hatena render <file|dir> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render markdown to the HTML body that publish would send.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printExportUsage prints usage for export-css and export-js.
func printExportUsage(w io.Writer, name string) {
	fmt.Fprintf(w, "Usage: md2hatena %s [flags]\n", name)
	fmt.Fprintln(w)
	if name == "export-js" {
		fmt.Fprintln(w, "Print the copy-button script wrapped in <script type=\"module\">.")
	} else {
		fmt.Fprintln(w, "Print the stylesheet for code frames and highlighting.")
	}
	fmt.Fprintln(w, "Paste it into the blog's design settings once per theme.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "publish":
		printPublishUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "export-css", "export-js":
		printExportUsage(env.Stdout, args[0])
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: md2hatena version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: md2hatena help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
