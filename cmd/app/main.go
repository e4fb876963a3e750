// @title Inspection Service API
// @version 1.0.0
// @description Контроллер станка покрасочной инспекции: связь с ПЛК (MC protocol), камера, инференс дефектов и архив сканирований.
// @host localhost:5001
// @BasePath /
package main

import "github.com/iwtcode/inspectionService/internal/app"

func main() {
	// Создаем и запускаем новый экземпляр приложения fx
	app.New().Run()
}
