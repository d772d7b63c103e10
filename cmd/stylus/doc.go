// Command stylus identifies audio files and recovers canonical metadata.
package main
