// Package config defines the format-agnostic model of a network definition
// file set: the network itself plus any named evaluation samples. Concrete
// loaders, such as the HCL one, live in separate packages.
package config
