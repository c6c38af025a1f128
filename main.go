// @title           FaceCheck Attendance API
// @version         1.0
// @description     Face-recognition attendance kiosk and admin backend.
// @BasePath        /api
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import "github.com/facecheck/attendance-api/cmd"

func main() {
	cmd.Execute()
}
