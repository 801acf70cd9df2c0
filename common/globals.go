package common

// Version is the current tblgen version as a string.
const Version string = "0.1.0"

// ConfigFileName is the name of the optional project configuration file that
// is looked up next to the root input file.
const ConfigFileName string = "tablegen.toml"

// SourceFileExt is the conventional file extension for record source files.
const SourceFileExt string = ".td"
