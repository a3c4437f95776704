// Package common holds small helpers shared by the other internal packages.
package common
