package radio

// ResetDefault tears down the shared coordinator between tests.
func ResetDefault() { resetDefault() }
