/*
Package netlist provides the elaborated, four-valued netlist IR that sits
between a Verilog elaborator front end and the back ends that consume it:
structural emitters, synthesis passes, and the bytecode assembler in the
sibling vm package.

A design is built bottom-up: four-valued bits and vectors (Bit4, Vector),
pins linked into electrical nets through circular rings (Pin, Connect,
Unlink), typed netlist nodes built on top of those pins (Signal, gates,
LPM devices, UDPs), expression trees and procedural statements describing
behavioural code, and scopes tying it all into a design hierarchy. The
Design type is the single owning container for a fully elaborated design.

The sibling vm package assembles a textual instruction stream into a
functor graph plus a flat code space and runs it against a cooperative,
discrete-event thread scheduler. Nothing in this package depends on vm;
the relationship is one-directional, the same way the teacher's hwlib
package depends on its own root package and not the reverse.
*/
package netlist
