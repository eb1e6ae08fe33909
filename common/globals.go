package common

// MatchaVersion is the current Matcha version as a string.
const MatchaVersion string = "0.1.0"

// MatchaProjectFileName is the name for Matcha project files.
const MatchaProjectFileName string = "matcha.toml"

// MatchaFileExt is the file extension for a Matcha script.
const MatchaFileExt string = ".mt"
