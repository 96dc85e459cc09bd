package cli

// validateFlags centralizes common flag combinations to keep behavior consistent.
func validateFlags(globals *Globals, with string, wait bool, useDefault bool) error {
	// handler rules carry their own terminal flag; --wait only qualifies --with
	if wait && with == "" {
		return outputErrorCommon(globals, "INVALID_FLAGS", "--wait requires --with", "add --with COMMAND or drop --wait")
	}
	if useDefault && with != "" {
		return outputErrorCommon(globals, "INVALID_FLAGS", "--default cannot be combined with --with", "drop one of them")
	}
	return nil
}
