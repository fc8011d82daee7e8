// Command boardpulse runs the Trello board reporting pipeline. It is built
// to be invoked from cron: progress goes to the run log and stdout, the exit
// code tells the scheduler whether the run completed.
package main

func main() {
	execute()
}
