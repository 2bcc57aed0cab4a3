package classify

// textExtensions are always classified as text regardless of content.
var textExtensions = []string{
	".c", ".h", ".cc", ".cpp", ".cxx", ".hpp", ".cs", ".java", ".kt", ".kts", ".scala",
	".go", ".rs", ".swift", ".m", ".mm", ".dart", ".php",
	".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".vue", ".svelte",
	".py", ".pyw", ".pyi", ".rb", ".pl", ".pm", ".r", ".tcl", ".lua",
	".sh", ".bash", ".zsh", ".fish", ".ps1",
	".hs", ".lhs", ".lisp", ".cl", ".el", ".scm", ".clj", ".cljs", ".ex", ".exs", ".erl",
	".html", ".htm", ".xhtml", ".xml", ".svg", ".css", ".scss", ".sass", ".less",
	".sql", ".graphql", ".proto",
	".json", ".yaml", ".yml", ".toml", ".ini", ".conf", ".cfg", ".env", ".properties",
	".md", ".markdown", ".rst", ".txt", ".csv", ".tsv", ".adoc", ".tex",
	".mod", ".sum", ".lock", ".gradle", ".cmake", ".mk", ".dockerfile",
}
