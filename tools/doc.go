// Package tools defines the Tool interface shared by the Odoo query tools:
// name, description, parameter schema and a text-in/text-out Call entry point.
package tools
