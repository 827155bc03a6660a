/*
Package patch implements guarded, in-place text patching of a single document.

	+-------------+      +-------------+      +-------------+
	|  document   | ---> |    text     | ---> |  document   |
	|   (Read)    |      |   (Apply)   |      |   (Write)   |
	+-------------+      +-------------+      +-------------+
	                            |
	                     +------+------+
	                     |     log     |
	                     | (LogPatch)  |
	                     +-------------+

🎯 Purpose:
- Load a document, look for a rule's matcher and rewrite it only when found
- Report exactly one outcome line per rule: "updated" or "pattern not found"

🔄 Flow:
1. Validate every rule before any file is touched
2. Read the full document into memory
3. Compute the new text with the pure text.Apply
4. Overwrite the document only if the matcher was found

⚡ Guarantees:
- A document whose matcher is absent is left byte-identical
- The write happens once, after the new text is fully computed
- The default write is an in-place overwrite. An interrupted write can leave
  a truncated file; Options.Atomic and Options.Backup are opt-in mitigations.

The patcher assumes exclusive access to the document. It takes no locks and
must not be run concurrently against the same path.

🔍 Example:

	p := patch.New(patch.Options{})
	report, err := p.Apply(ctx, "index.html", text.ReplacementRule{
		FromText: `href="a.css"`,
		ToText:   `href="a.css?v=2"`,
	})
	if err != nil {
		return err
	}
	if report.Outcome == patch.Changed {
		// ...
	}
*/
package patch
