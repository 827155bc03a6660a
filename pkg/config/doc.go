/*
Package config loads patchrc rule files.

	            +-------------+
	            |   Config    |
	            |   (Rules)   |
	            +------+------+
	                   |
	      +------------+------------+
	      |            |            |
	+-----+----+  +----+-----+ +----+----+
	|   YAML   |  |   JSON   | |   HCL   |
	|  Parser  |  |  Parser  | |  Parser |
	+----------+  +----------+ +---------+

🎯 Purpose:
- Picks a parser by file extension through a registry
- Rejects unknown fields so typos in rule files fail loudly
- Validates every rule before any document is opened

📝 Formats:

	# .patchrc.yaml
	file: index.html
	rules:
	  - name: css-version
	    literal: 'href="a.css"'
	    replace: 'href="a.css?v=2"'

	# .patchrc.hcl
	file = "index.html"
	rule "wrap-section" {
	  regex   = "(<section id=\"x\">)(.*?)(</section>)"
	  replace = "$1\n  <div class=\"wrapper\">$2\n  </div>\n$3"
	  skip_if = "<div class=\"wrapper\">"
	}

In HCL, "${" starts an interpolation, so named capture references are
written "$${name}".
*/
package config
