package calc

// APIVersion is the plugin API version offered by this build.
// Plugin units may declare a semver constraint against it.
const APIVersion = "1.0.0"
