/*
Package operation runs edit plans.

	+-------------+
	|    Plan     |
	|  (Entries)  |
	+------+------+
	       |
	+------+------+
	|    Build    |
	| (Requests)  |
	+------+------+
	       |
	+------+------+
	|     Run     |
	| (edit.Edit) |
	+-------------+

🎯 Purpose:
  - Expands plan entries into one edit request per target file
  - Resolves inline, file and remote content
  - Runs requests through the editor and tracks each file in status

🔄 Flow:
 1. Build resolves targets and content for every entry
 2. Requests are grouped into per-file chains that keep plan order
 3. Chains run one after another, or concurrently when the plan is async
 4. Every outcome is tracked and failures are joined into one error

⚡ Key Responsibilities:
  - Same-file edits never race
  - A failing entry never stops the others
  - Dry runs touch nothing on disk

🔍 Example:

	runner, err := operation.NewRunner(operation.Options{
		Manager: status.New(plan.BaseDir),
		Fetcher: remote.Registry{},
	})
	report, err := runner.Run(ctx, plan)
*/
package operation
