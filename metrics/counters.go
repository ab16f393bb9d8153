package metrics

var (
	// SignaturesBuilt counts completed Calculate calls, labeled by hash
	// algorithm.
	SignaturesBuilt = SignatureNamespace.NewLabeledCounter("built_total", "number of signatures built", "algorithm")

	// SignatureBuildDuration times Calculate calls, labeled by hash
	// algorithm.
	SignatureBuildDuration = SignatureNamespace.NewLabeledTimer("build_duration_seconds", "time spent building a signature", "algorithm")

	// BlocksMatched counts blocks a diff resolved to a COPY instruction.
	BlocksMatched = DiffNamespace.NewCounter("blocks_matched_total", "number of blocks matched against the base signature")

	// BytesLiteral counts bytes a diff had to emit as LITERAL.
	BytesLiteral = DiffNamespace.NewCounter("literal_bytes_total", "number of target bytes emitted as literal instructions")

	// CollisionsBlacklisted counts CRC buckets that hit the collision
	// ceiling and were dropped from the index.
	CollisionsBlacklisted = DiffNamespace.NewCounter("crc_collisions_blacklisted_total", "number of CRC buckets dropped for exceeding the collision ceiling")

	// DiffDuration times Diff/DiffParallel calls, labeled by "sequential"
	// or "parallel".
	DiffDuration = DiffNamespace.NewLabeledTimer("duration_seconds", "time spent computing a delta", "mode")

	// DeltasApplied counts completed Apply calls.
	DeltasApplied = ApplyNamespace.NewCounter("applied_total", "number of deltas applied")

	// DeltasRejected counts Apply calls that returned an error.
	DeltasRejected = ApplyNamespace.NewLabeledCounter("rejected_total", "number of deltas rejected", "reason")
)
