// devices.go - I/O device interfaces for the 256 input/output ports
//
// Grounded on original_source/emulator/src/core/io.rs's InputDevice/
// OutputDevice traits and devices.rs's register_input_device/
// register_output_device port-table shape, widened from that file's 8
// ports to the 256 spec.md §4.3/§6 calls for.

package main

// InputDevice is a readable peripheral attached to an input port.
type InputDevice interface {
	Read() byte
}

// OutputDevice is a writable peripheral attached to an output port.
type OutputDevice interface {
	Write(b byte)
}

// DevNull is an InputDevice/OutputDevice that discards writes and reads
// as zero, mirroring original_source's DevNull placeholder.
type DevNull struct{}

func (DevNull) Read() byte   { return 0 }
func (DevNull) Write(byte) {}

// InputDeviceFunc adapts a function to InputDevice.
type InputDeviceFunc func() byte

func (f InputDeviceFunc) Read() byte { return f() }

// OutputDeviceFunc adapts a function to OutputDevice.
type OutputDeviceFunc func(byte)

func (f OutputDeviceFunc) Write(b byte) { f(b) }
