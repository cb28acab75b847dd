// Package ioctl encodes and issues Linux ioctl requests.
package ioctl

import (
	"fmt"
	"reflect"
	"syscall"
)

// Mode is the direction of the data transfer of a request.
type Mode uint8

// Modes
const (
	None Mode = iota
	Write
	Read
)

// Command is an encoded ioctl request number.
type Command uintptr

func (c Command) Mode() Mode { return Mode(c >> 30 & 0x03) }

func (c Command) Size() int { return int(c >> 16 & 0x3fff) }

func (c Command) String() string {
	var dir string
	switch c.Mode() {
	case Write:
		dir = "write"
	case Read:
		dir = "read"
	case Write | Read:
		dir = "read/write"
	default:
		dir = "none"
	}
	return fmt.Sprintf("ioctl %s %d bytes %#04x", dir, c.Size(), uintptr(c&0xffff))
}

// Do issues the request on fd. ptr must be a pointer to the request argument, or nil.
func Do(fd uintptr, command Command, ptr any) error {
	var arg uintptr
	if ptr != nil {
		arg = reflect.ValueOf(ptr).Pointer()
	}

	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, uintptr(command), arg); errno != 0 {
		return fmt.Errorf("%s: %w", command, errno)
	}
	return nil
}

// Encode a request from its mode, argument size and type/number pair.
func Encode(mode Mode, size uint16, cmd uintptr) Command {
	return Command(mode)<<30 | Command(size&0x3fff)<<16 | Command(cmd&0xffff)
}

// Pointer encodes a request taking ref, which must be a pointer, as its argument.
func Pointer(mode Mode, ref any, cmd uintptr) Command {
	return Encode(mode, uint16(reflect.TypeOf(ref).Elem().Size()), cmd)
}
