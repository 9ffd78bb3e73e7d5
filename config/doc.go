// Package config loads solver settings from TOML files.
//
// A file has three optional sections; omitted keys keep their defaults:
//
//	[solver]
//	width = 0              # 0 sizes diagrams by the unassigned variables
//	cutset = "frontier"    # or "lel"
//	frontier = "simple"    # or "nodup"
//	time_limit = "30s"
//	max_iterations = 0
//	report_every = 1000
//	export = false         # export the first relaxed and restricted diagrams
//	export_dir = "."       # setting export_dir or export_svg implies export = true
//	export_svg = false
//
//	[astar]
//	weight = 1.0
//	weight_decay = 1.0
//
//	[log]
//	level = "info"
//	verbosity = 1
//
// Unknown keys are rejected so that typos do not go unnoticed.
package config
