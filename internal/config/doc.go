// Package config loads the optional printthreads HCL configuration file.
//
// Example:
//
//	thread_data_dir = "C:\\Users\\me\\ThreadData"
//	custom_dir      = "./custom"
//	file_marker     = "-3Dprinting"
//	name_suffix     = " for 3D printing"
//	log_level       = "debug"
//
//	adjustment {
//	  coefficient = 0.16
//	  ceiling     = 0.3
//	}
package config
