// Package mysqlxml2csv converts the XML result sets written by "mysql --xml"
// into CSV, streaming rows to the output while the document is parsed.
//
// The input has this shape:
//
//	<resultset statement="SELECT id, name FROM user" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
//	  <row>
//	    <field name="id">100040</field>
//	    <field name="name" xsi:nil="true" />
//	  </row>
//	</resultset>
//
// # Features
//
//   - Header line built from the field names of the first row
//   - Every value double-quoted, embedded quotes doubled
//   - Configurable column separator and NULL substitute
//   - Optional line printed when the result holds no rows
//   - Automatic handling of compressed input (gzip, bzip2, xz, zstandard)
//   - Constant memory after the first row, whatever the number of rows
//
// # Basic Usage
//
//	conv, err := mysqlxml2csv.NewConverter(mysqlxml2csv.NewOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if _, err := conv.ConvertFile(ctx, "result.xml.gz", os.Stdout); err != nil {
//	    log.Fatal(err)
//	}
//
// # Output
//
// With the header enabled the first line lists the column names and the
// second line the values of the first row. Later rows follow one per line.
// The header cannot be written before the first </row> is seen, so only the
// first row is buffered; every later row streams directly to the writer.
//
// Errors are fatal and nothing is rolled back: lines completed before the
// error stay in the output.
package mysqlxml2csv
