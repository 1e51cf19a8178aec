//go:build linux || solaris || darwin || dragonfly || freebsd || netbsd || openbsd

// Copyright 2015 go-termios Author. All Rights Reserved.
// https://github.com/go-termios/termios
// Author: John Lenton <chipaca@github.com>

// Package eunix provides extra Unix-specific system utilities.
package eunix

import "golang.org/x/sys/unix"

// Termios represents terminal attributes.
type Termios unix.Termios

// TermiosForFd returns a pointer to a Termios structure if the file descriptor
// is open on a terminal device.
func TermiosForFd(fd int) (*Termios, error) {
	term, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	return (*Termios)(term), err
}

// ApplyToFd applies term to the given file descriptor after pending output
// has been written.
func (term *Termios) ApplyToFd(fd int) error {
	return unix.IoctlSetTermios(fd, ioctlSetTermiosDrain, (*unix.Termios)(term))
}

// Copy returns a copy of term.
func (term *Termios) Copy() *Termios {
	v := *term
	return &v
}

// SetRaw turns off canonical mode and echo, so that key presses are read one
// at a time without being shown. Output processing and signal keys are left
// alone.
func (term *Termios) SetRaw() {
	term.Lflag &^= unix.ICANON | unix.ECHO
	term.Cc[unix.VMIN] = 1
	term.Cc[unix.VTIME] = 0
}

// MakeRaw puts the terminal at fd into raw mode and returns a function that
// restores the previous attributes.
func MakeRaw(fd int) (restore func() error, err error) {
	saved, err := TermiosForFd(fd)
	if err != nil {
		return nil, err
	}
	raw := saved.Copy()
	raw.SetRaw()
	if err := raw.ApplyToFd(fd); err != nil {
		return nil, err
	}
	return func() error { return saved.ApplyToFd(fd) }, nil
}
