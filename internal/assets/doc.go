// Package assets provides the page templates and base stylesheet of a built
// site.
//
// Assets live in two places: the files compiled into the binary, and an
// optional assets/ directory in the site root. A Resolver reads the site's
// directory first and falls back to the embedded file when one is absent, so
// a site can override page.html alone and keep the rest.
//
//	{site}/assets/
//	├── styles/
//	│   └── base.css             # written to the output as style.css
//	└── templates/
//	    ├── page.html            # one rendered document
//	    ├── section.html         # _index.md pages listing their section
//	    └── {name}.html          # selected by the template frontmatter field
//
// Names are plain words: no separators, dots or extensions. Directory reads
// go through os.Root, so a symlink cannot point an asset outside the
// directory either.
package assets
