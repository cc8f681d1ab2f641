// This file is part of intcode - https://github.com/db47h/intcode
//
// Copyright 2019 Denis Bernard <db047h@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// The intcode command line tool runs Intcode programs, either standalone or
// wired into circuits. It is a showcase for the package
// github.com/db47h/intcode/vm.
//
// Usage:
//
//	intcode [flags] tapefile
//
//	-ascii
//		  ASCII console: input and output are characters
//	-circuit filename
//		  run the circuit described in YAML file filename
//	-debug
//		  enable debug diagnostics
//	-digest
//		  print a digest of memory upon exit
//	-disasm
//		  disassemble the tape and exit
//	-dump filename
//		  save memory to filename upon exit
//	-in values
//		  comma separated input values (can be specified multiple times)
//	-interactive
//		  read input values from stdin once -in values are exhausted
//	-noraw
//		  disable raw terminal IO in ASCII mode
//	-set addr=value
//		  set memory cell before running, as addr=value (can be specified multiple times)
//	-trace
//		  log outputs and halts to stderr
//
// The tape file contains comma separated decimal values. Files with a .zst
// extension are zstd compressed.
//
// Output values are printed one per line. Running out of input values is an
// error unless -interactive is set, in which case values are read from stdin,
// one per line.
//
// -ascii: input characters are sent to the program one at a time and output
// values in the ASCII range are printed as characters. Upon startup, intcode
// switches the terminal to raw mode unless stdin has been redirected or -noraw
// is set. In raw mode, CTRL-D ends input.
//
// -set: patches the tape before running. For example, "-set 1=12 -set 2=2"
// sets the noun and verb of a gravity assist program.
//
// -circuit: runs a pipeline or ring of instances, as described in the given
// YAML file, and prints the result. The tape is taken from the command line if
// given, from the configuration file otherwise:
//
//	kind: ring		# or pipeline
//	phases: [9, 8, 7, 6, 5]
//	seed: 0
//	port_size: 32		# optional
//	tape: amplifier.txt	# optional, relative to the YAML file
//
// -debug: will print a full stacktrace and the VM registers should the VM
// crash.
//
// -dump: saves the final memory contents to the given file in tape format. Use
// a .zst extension to compress it.
//
// -digest: prints a base58 encoded BLAKE3 digest of the final memory contents.
// Two runs leaving the same memory contents print the same digest.
package main
