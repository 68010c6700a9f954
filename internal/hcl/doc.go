// Package hcl loads pipeline definitions written in HCL.
//
// A file may declare any number of pipeline blocks:
//
//	pipeline "etl" {
//	  name = "Nightly ETL"
//
//	  node "reader" {
//	    type = "source"
//	    config {
//	      path    = "/in.csv"
//	      retries = 3
//	    }
//	    output "rows" {
//	      data_type = list(string)
//	      downstream {
//	        node = "writer"
//	        port = "rows"
//	      }
//	    }
//	  }
//
//	  node "writer" {
//	    type = "sink"
//	    input "rows" {
//	      data_type = "list(string)"
//	    }
//	  }
//	}
//
// data_type accepts either a quoted string, kept verbatim, or a type
// expression, which is normalized to its canonical spelling. Attributes in a
// config block keep their source order and are converted to strings with cty.
package hcl
