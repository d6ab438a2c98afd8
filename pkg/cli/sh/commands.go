package sh

func init() {
	AddCmds(
		FrameCmd("write", "FINGERS high|low", BuildSolenoidWrite, "w"),
		FrameCmd("pulse", "FINGERS DURATION_MS", BuildSolenoidPulse, "p"),
		FrameCmd("erm", "FINGERS INTENSITY", BuildERMSet),
		FrameCmd("gpio.config", "PINS in|out [PORT]", BuildGPIOConfigure, "gc"),
		FrameCmd("gpio.set", "PINS [PORT]", BuildGPIOSet, "gs"),
		FrameCmd("gpio.clear", "PINS [PORT]", BuildGPIOClear, "gx"),
		FrameCmd("pwm", "PINS INTENSITY [PORT]", BuildPWMSet),
		FrameCmd("raw", "HEX...", BuildRaw),
	)
}
