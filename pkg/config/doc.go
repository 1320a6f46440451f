// Package config loads edit plans for editrc.
//
//	            +-------------+
//	            |    Plan     |
//	            |  (Edits)    |
//	            +------+------+
//	                   |
//	      +-----------+-----------+-----------+
//	      |           |                       |
//	+-----+-----+ +---+-----+           +----+----+
//	|   YAML    | |  JSON   |           |   HCL   |
//	| Parser    | | Parser  |           | Parser  |
//	+-----------+ +---------+           +---------+
//
// 🎯 Purpose:
//   - Reads a plan file and picks a parser by extension
//   - Falls back from YAML to HCL for a bare .editrc file
//   - Validates entries before anything touches the file system
//   - Expands glob entries into concrete targets
//
// 🔄 Flow:
//  1. Load reads the plan file
//  2. A registered Parser decodes it into a model.Plan
//  3. The plan is anchored to its directory and validated
//  4. Targets turns each entry into absolute file paths
//
// 📝 Example plan:
//
//	defaults:
//	  backup: true
//	edits:
//	  - path: README.md
//	    content_file: snippets/usage.md
//	    start_anchor: "<!-- USAGE:BEGIN -->"
//	    end_anchor: "<!-- USAGE:END -->"
//	  - glob: "**/*.go"
//	    exclude: ["vendor/**"]
//	    content_file: snippets/header.txt
//	    start_anchor: "// header:begin"
//	    end_anchor: "// header:end"
package config
